// Package dataprocessing analyzes normalized sheet datasets.
// It consolidates numeric parsing, column inference, and grouped aggregation
// into a cohesive package that handles everything between ingestion and the
// JSON presentation layer.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Numeric parser: the single definition of "this cell is a number"
// 2. Inference: picks default group-by and aggregate columns from column statistics
// 3. Aggregation: groups rows and reduces a metric column (sum/count/avg/min/max)
//
// # Usage
//
// Infer defaults and aggregate:
//
//	groupBy, aggCol, ok := dataprocessing.InferDefaultColumns(ds.Headers, ds.Rows)
//	if ok {
//	    result := dataprocessing.GroupAndAggregate(ds.Headers, ds.Rows, groupBy, aggCol, "avg")
//	}
//
// # Data Flow
//
//	Dataset → Inference → chosen columns → Aggregation/Filtering → AggregateRows
//
// All functions are pure views over the dataset: nothing is mutated, nothing
// is cached, and unknown column names yield empty results rather than errors.
package dataprocessing
