package featureflag

type Flag string

const (
	FlagSkipEntityBenchmark  Flag = "SKIP_ENTITY_BENCHMARK"
	FlagSkipWrapperBenchmark Flag = "SKIP_WRAPPER_BENCHMARK"
	FlagSkipGridBenchmark    Flag = "SKIP_GRID_BENCHMARK"
	FlagExactGridPositions   Flag = "EXACT_GRID_POSITIONS"
)
