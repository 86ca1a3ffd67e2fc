package errors

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicateCodePanics(t *testing.T) {
	require.Panics(t, func() {
		Register(100, "duplicate of ErrInput")
	})
}

func TestErrIs(t *testing.T) {
	cases := map[string]struct {
		kind    *Error
		err     error
		wantIs  bool
	}{
		"root error matches itself": {
			kind:   ErrThreshold,
			err:    ErrThreshold,
			wantIs: true,
		},
		"wrapped root error matches": {
			kind:   ErrThreshold,
			err:    Wrap(ErrThreshold, "for a 3 owner wallet"),
			wantIs: true,
		},
		"deeply wrapped root error matches": {
			kind:   ErrAddress,
			err:    Wrap(Wrap(ErrAddress, "inner"), "outer"),
			wantIs: true,
		},
		"different root does not match": {
			kind:   ErrThreshold,
			err:    ErrAddress,
			wantIs: false,
		},
		"stdlib error does not match": {
			kind:   ErrThreshold,
			err:    fmt.Errorf("threshold out of range"),
			wantIs: false,
		},
		"nil kind matches nil error": {
			kind:   nil,
			err:    nil,
			wantIs: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantIs, tc.kind.Is(tc.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "description"); err != nil {
		t.Fatalf("wrapping nil must return nil, got %+v", err)
	}
}

func TestWrapPreservesMessageChain(t *testing.T) {
	err := Wrapf(ErrNotOwner, "address %s", "0xabc")
	assert.Equal(t, `address 0xabc: not an owner`, err.Error())
}

func TestWrapAttachesStackTraceOnce(t *testing.T) {
	err := Wrap(ErrInput, "first")
	require.NotNil(t, stackTrace(err))

	// A second wrap must reuse the existing trace instead of attaching a
	// new one at the wrong frame.
	outer := Wrap(err, "second").(*wrappedError)
	if _, ok := outer.parent.(stackTracer); ok {
		t.Fatal("outer wrap must not attach another stack trace")
	}
}

func TestAppendField(t *testing.T) {
	var errs error
	errs = AppendField(errs, "Threshold", ErrThreshold)
	errs = AppendField(errs, "GasToken", nil)
	errs = AppendField(errs, "To", ErrAddress)

	require.Error(t, errs)
	assert.Len(t, FieldErrors(errs, "Threshold"), 1)
	assert.Len(t, FieldErrors(errs, "To"), 1)
	assert.Len(t, FieldErrors(errs, "GasToken"), 0)
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("blew up")
	}
	err := fn()
	require.Error(t, err)
	assert.True(t, ErrPanic.Is(err))
}

func TestExternalWrapKeepsCause(t *testing.T) {
	rpcErr := errors.New("connection refused")
	err := Wrapf(Wrap(rpcErr, "rpc"), "reading nonce")
	assert.Equal(t, rpcErr, errors.Cause(err))
}
