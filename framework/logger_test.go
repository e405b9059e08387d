package framework

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapturingLoggerWithPrefix(t *testing.T) {
	var captured CapturingLogger
	logger := LoggerWithPrefix(&captured, "[page] ")
	logger.Printf("loaded %d inputs", 3)

	output := captured.Output()
	if assert.Len(t, output, 1) {
		assert.Equal(t, "[page] loaded 3 inputs", output[0].Message)
	}

	var buf bytes.Buffer
	output.Dump(&buf, "  DEBUG ")
	assert.Contains(t, buf.String(), "  DEBUG [")
	assert.Contains(t, buf.String(), "] [page] loaded 3 inputs\n")
}

func TestReformatErrorKeepsWrappedError(t *testing.T) {
	base := errors.New("\n\tError Trace:\tx.go:1\n\tError:\tbad  \n")
	err := reformatError(base)
	assert.Equal(t, "Error Trace:  x.go:1\n  Error:  bad", err.Error())
	assert.True(t, errors.Is(err, base))
}
