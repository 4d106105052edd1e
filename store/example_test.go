package store_test

import (
	"fmt"

	"recordkit/store"
)

func ExampleNewPagination() {
	first, _ := store.NewPagination(0, 0)
	second, _ := store.NewPagination("2", "2")

	fmt.Println(first, first.Offset())
	fmt.Println(second, second.Offset())

	// Output:
	// {1 15} 0
	// {2 2} 2
}
