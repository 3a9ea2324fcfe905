// Package pagination provides parallel fetching of every page of a paginated endpoint.
//
// The server reports totalPages and totalItems on every page. The coordinator
// fetches page 0 synchronously to learn them, then distributes pages
// 1..totalPages-1 over a worker pool capped at MaxConcurrency (default 30).
//
// Example usage:
//
//	coordinator := pagination.NewCoordinator[pagination.Item](httpClient, pagination.DefaultConfig())
//	result, err := coordinator.FetchAll(ctx)
//	if err != nil {
//		return err
//	}
//	fmt.Println(result.Summary()) // Fetched 5 items, expected 5
//
// The coordinator:
//   - Fetches page 0 to determine total pages
//   - Skips fan-out for single-page resources
//   - Feeds remaining pages to a fixed worker pool through an unbuffered queue
//   - Appends items to a mutex-guarded ResultSet in completion order
//   - Fails fast: the first page error stops dispatch, in-flight fetches finish,
//     and no partial result is returned
//
// A short collection is not an error; Result.Complete reports it.
package pagination
