package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"binding-resolver/internal/inject"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"Cart", "Cart", 0},
		{"Cart", "Carts", 1},
		{"größe", "grösse", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 0.75, Similarity("cart", "carp"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "shop.cart", Normalize("*shop.Cart"))
	assert.Equal(t, "shop.orderitem", Normalize("[]shop.Order_Item"))
}

func TestSimilar(t *testing.T) {
	known := []inject.Key{
		inject.NewKey("*shop.Cart", ""),
		inject.NewKey("*shop.DB", "primary"),
		inject.NewKey("shop.Clock", ""),
		inject.NewKey("*shop.Carts", ""),
		inject.NewKey("shop.Orders", ""),
	}

	assert.Equal(t, []inject.Key{known[0], known[3]}, Similar(inject.NewKey("shop.Cart", ""), known, 0))
	assert.Equal(t, []inject.Key{known[0]}, Similar(inject.NewKey("shop.cart", ""), known, 1))
	assert.Equal(t, []inject.Key{known[1]}, Similar(inject.NewKey("*shop.DB", ""), known, 3))
	assert.Empty(t, Similar(inject.NewKey("net.Listener", ""), known, 3))
	assert.Empty(t, Similar(known[2], known, 3), "a key does not suggest itself")
}
