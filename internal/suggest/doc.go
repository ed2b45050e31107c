// Package suggest finds known binding keys that look like a key nobody
// provides, so unsatisfied-dependency errors can name likely intended keys.
//
// Keys are compared after normalization: pointer and slice markers are
// dropped and the type name is case-folded, so "shop.cart" is close to
// "*shop.Cart". A key whose type matches but whose qualifier differs is
// always a candidate.
package suggest
