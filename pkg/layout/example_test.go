package layout_test

import (
	"fmt"

	"github.com/matzehuels/labelsheet/pkg/layout"
)

func ExampleLocate() {
	g := layout.DefaultGrid()

	for _, i := range []int{0, 5, 20, 44} {
		s, _ := layout.Locate(i, g)
		fmt.Printf("item %d: page %d, column %d, row %d at (%g, %g)\n", i, s.PageIndex, s.Column, s.Row, s.X, s.Y)
	}
	// Output:
	// item 0: page 0, column 0, row 0 at (10, 10)
	// item 5: page 0, column 1, row 1 at (60, 50)
	// item 20: page 1, column 0, row 0 at (10, 10)
	// item 44: page 2, column 0, row 1 at (10, 50)
}

func ExamplePageCount() {
	g := layout.DefaultGrid()
	n, _ := layout.PageCount(45, g)
	fmt.Println("Items per page:", g.ItemsPerPage())
	fmt.Println("Pages for 45 items:", n)
	// Output:
	// Items per page: 20
	// Pages for 45 items: 3
}
