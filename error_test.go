package beautrafil_test

import (
	"errors"
	"fmt"
	"testing"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := beautrafil.Errorf(beautrafil.ENOTFOUND, "document %q not found", "test")

	assert.Equal(t, beautrafil.ENOTFOUND, beautrafil.ErrorCode(err))
	assert.Equal(t, "document \"test\" not found", beautrafil.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, beautrafil.ErrorCode(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("fetching page: %w", beautrafil.Errorf(beautrafil.ETIMEOUT, "wait condition not satisfied"))

	assert.Equal(t, beautrafil.ETIMEOUT, beautrafil.ErrorCode(err))
	assert.Equal(t, "wait condition not satisfied", beautrafil.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, beautrafil.EINTERNAL, beautrafil.ErrorCode(err))
	assert.Equal(t, "Internal error.", beautrafil.ErrorMessage(err))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, beautrafil.ErrorMessage(nil))
}
