package fitingtree_test

import (
	"fmt"

	"github.com/hupe1980/fitingtree"
)

func ExampleNew() {
	keys := make([]uint64, 1000)
	for i := range keys {
		keys[i] = uint64(i) * 2
	}

	tree, err := fitingtree.New(keys, func(o *fitingtree.Options) {
		o.MaxError = 16
	})
	if err != nil {
		panic(err)
	}

	ap := tree.GetApproxPos(500)

	fmt.Println(tree.SegmentCount())
	fmt.Println(ap.Lo <= 250 && 250 < ap.Hi)
	// Output:
	// 1
	// true
}

func ExampleNewBuffered() {
	keys := []uint64{10, 20, 30, 40, 50}

	tree, err := fitingtree.NewBuffered[uint64, uint64](keys, func(o *fitingtree.Options) {
		o.MaxError = 8
		o.BufferSize = 4
	})
	if err != nil {
		panic(err)
	}

	tree.Insert(25, 100)
	fmt.Println(tree.Find(25).Pos())

	tree.Erase(25)
	fmt.Println(tree.Find(25).Valid())
	// Output:
	// 100
	// false
}
