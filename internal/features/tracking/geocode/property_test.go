package geocode

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestResolverProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("same pass returns identical coordinates", prop.ForAll(
		func(location string) bool {
			r := NewResolver(&fakeSearcher{}, Options{Qualifier: "USA"})
			return r.Resolve(context.Background(), location) == r.Resolve(context.Background(), location)
		},
		gen.AnyString(),
	))

	properties.Property("offline passes agree on synthetic coordinates", prop.ForAll(
		func(location string) bool {
			a := NewResolver(nil, Options{}).Resolve(context.Background(), location)
			b := NewResolver(nil, Options{}).Resolve(context.Background(), location)
			return a == b && a.Synthetic
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
