// Package genetics is the breeding prediction engine.
//
// It computes multi-locus Punnett distributions, resolves phenotypes and
// cross-species offspring from static reference tables, analyzes pedigree
// graphs and scores breeding pairs and progeny against goals. Every function
// is pure: inputs are immutable snapshots from package domain and results are
// freshly allocated values. Nothing here performs I/O, so the package is safe
// for concurrent use as long as callers do not mutate the snapshots they pass.
//
// Malformed input never produces an error or a panic. A bad genotype yields an
// empty distribution (probability zero), an unknown species or category
// resolves to the Unknown phenotype, and cyclic pedigree data degrades to a
// bounded, conservative answer with IntegrityIssues describing the problem.
//
// Inheritance is modeled with independent assortment: every locus segregates
// independently of every other. This is a modeling assumption, not a claim
// about linkage in any real species.
package genetics
