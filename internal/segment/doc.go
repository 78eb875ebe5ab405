// Package segment produces ranked and bucketed views over the enriched
// tables: product and category rankings, the Pareto cut, revenue time
// series and basket-shape statistics.
//
// Aggregators are independent reductions. None mutates its input, so they
// can run in any order over the same snapshot.
package segment
