package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunIDGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedRunIDGenerator("run-123")

	assert.Equal(t, "run-123", gen.Generate())
	assert.Equal(t, "run-123", gen.Generate())
}

func TestFixedRunIDGenerator_EmptyIDDefault(t *testing.T) {
	assert.Equal(t, "test-run-default", NewFixedRunIDGenerator("").Generate())
}

func TestOrder_LocalizedParts(t *testing.T) {
	o := Order("1", "c1", Day(2024, time.March, 4, 23), 100)

	assert.Equal(t, "2024-03-04", o.Date)
	assert.Equal(t, 23, o.Hour)
	assert.Equal(t, "Monday", o.Weekday)
	assert.Equal(t, time.Date(2024, time.March, 5, 4, 0, 0, 0, time.UTC), o.CreatedAt)
}

func TestItem_Revenue(t *testing.T) {
	it := Item("1", "p1", "Whey", 30000, 2, "A", "B")
	assert.Equal(t, "60000", it.Revenue.String())
}
