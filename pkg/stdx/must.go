package stdx

// Must1 returns v, or panics if err is not nil.
//
// It is meant for package-level initialisation where a failure is a
// programming error, e.g. declaring tool definitions:
//
//	var weather = stdx.Must1(tool.New[WeatherArgs](tool.Name("get_weather")))
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
