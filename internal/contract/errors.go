package contract

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/crypto/sha3"
)

// ReasonReferrerNotActivated is the revert string the contract uses when the
// given referrer has not activated mining.
const ReasonReferrerNotActivated = "Referrer not activated"

// errorSelector is the 4-byte selector of Error(string).
var errorSelector = func() []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("Error(string)"))
	return h.Sum(nil)[:4]
}()

var stringArgs = func() abi.Arguments {
	t, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Type: t}}
}()

// RevertError is a contract call or transaction that the EVM rejected.
type RevertError struct {
	Reason string // decoded Error(string), empty when not available
	Err    error
}

func (e *RevertError) Error() string {
	if e.Reason != "" {
		return "execution reverted: " + e.Reason
	}
	return e.Err.Error()
}

func (e *RevertError) Unwrap() error { return e.Err }

// DecodeRevert decodes ABI-encoded Error(string) revert data.
func DecodeRevert(data []byte) (string, bool) {
	if len(data) < 4 || !bytes.Equal(data[:4], errorSelector) {
		return "", false
	}
	vals, err := stringArgs.Unpack(data[4:])
	if err != nil || len(vals) != 1 {
		return "", false
	}
	s, ok := vals[0].(string)
	return s, ok
}

// asRevert classifies a node error. Errors that carry revert data or an
// "execution reverted" message become *RevertError; others pass through.
func asRevert(err error) error {
	var rpcErr *chain.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}
	if rpcErr.Data != "" {
		if raw, herr := hex.DecodeString(strings.TrimPrefix(rpcErr.Data, "0x")); herr == nil {
			if reason, ok := DecodeRevert(raw); ok {
				return &RevertError{Reason: reason, Err: err}
			}
		}
	}
	if strings.Contains(rpcErr.Message, "revert") {
		reason := ""
		if i := strings.Index(rpcErr.Message, "execution reverted:"); i >= 0 {
			reason = strings.TrimSpace(rpcErr.Message[i+len("execution reverted:"):])
		}
		return &RevertError{Reason: reason, Err: err}
	}
	return err
}

// IsReferrerNotActivated reports whether err is the contract's
// referrer-not-activated revert, in decoded or raw message form.
func IsReferrerNotActivated(err error) bool {
	if err == nil {
		return false
	}
	var rev *RevertError
	if errors.As(err, &rev) && strings.Contains(rev.Reason, ReasonReferrerNotActivated) {
		return true
	}
	return strings.Contains(err.Error(), ReasonReferrerNotActivated)
}

// Humanize turns a write error into the message shown to the user. The
// referrer-not-activated revert becomes notActivatedMsg; every other error
// is shown verbatim.
func Humanize(err error, notActivatedMsg string) string {
	if err == nil {
		return ""
	}
	if IsReferrerNotActivated(err) {
		return notActivatedMsg
	}
	return err.Error()
}
