// Package equipment derives the equipment type and numeric identifier from a
// raw equipment code such as "Asc014" or "Esc07".
//
// Both derivations are pure functions of the code. Callers never store the
// type independently of the code it came from.
package equipment
