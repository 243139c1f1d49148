// Package taxcode maps SRI (Servicio de Rentas Internas) VAT regime codes to
// the percentage they represent.
//
// The table is fixed at compile time and never mutated. Resolve is total:
// unknown, empty or nil codes resolve to 0.
package taxcode
