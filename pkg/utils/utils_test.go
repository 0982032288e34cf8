package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, SplitList(" http://a:9200, ,http://b:9200 "))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , "))
}

func TestRoundDecimal(t *testing.T) {
	assert.Equal(t, 3.14, RoundDecimal(3.14159, 2))
	assert.Equal(t, 7.75, RoundDecimal(7.75, 2))
	// halves go to the even neighbour
	assert.Equal(t, 0.12, RoundDecimal(0.125, 2))
	assert.Equal(t, 0.38, RoundDecimal(0.375, 2))
	assert.Equal(t, 0.312, RoundDecimal(0.3125, 3))
}

func TestIntOrZero(t *testing.T) {
	v, neg := 12, -3
	assert.Equal(t, 12.0, IntOrZero(&v))
	assert.Zero(t, IntOrZero(&neg))
	assert.Zero(t, IntOrZero(nil))
}
