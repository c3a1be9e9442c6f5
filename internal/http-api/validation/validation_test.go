package validation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYear(t *testing.T) {
	current := time.Now().Year()

	assert.NoError(t, Year(1900))
	assert.NoError(t, Year(1999))
	assert.NoError(t, Year(current))

	assert.Error(t, Year(1899))
	assert.Error(t, Year(0))
	assert.Error(t, Year(current+1))
}

func TestYear_MessageEchoesValue(t *testing.T) {
	err := Year(1850)
	assert.Contains(t, err.Error(), "1850")
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestScore(t *testing.T) {
	for s := 1; s <= 10; s++ {
		assert.NoError(t, Score(s), fmt.Sprintf("score %d should be valid", s))
	}

	assert.Error(t, Score(0))
	assert.Error(t, Score(11))
	assert.Error(t, Score(-3))
}

func TestScore_MessageEchoesValue(t *testing.T) {
	err := Score(42)
	assert.Contains(t, err.Error(), "42")
}

func TestUsername(t *testing.T) {
	assert.NoError(t, Username("alice"))
	assert.NoError(t, Username("meredith"))

	assert.ErrorIs(t, Username("me"), ErrReserved)
	assert.ErrorIs(t, Username("ME"), ErrReserved)
	assert.ErrorIs(t, Username("Me"), ErrReserved)
}
