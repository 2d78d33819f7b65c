package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableString(t *testing.T) {
	table := NewTable("TYPE", "NAME").Append("Continent", "Europe").Append("Continent", "Asia")
	assert.Equal(t, "TYPE|NAME\nContinent|Europe\nContinent|Asia", table.String())
	assert.Equal(t, "A|B", NewTable("A", "B").String(), "header only")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234,567", formatCount(1234567))
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "295m", formatElevation(ptr(295.0)))
	assert.Equal(t, "12.5m", formatElevation(ptr(12.5)))
	assert.Equal(t, "N/A", formatElevation(nil))
}
