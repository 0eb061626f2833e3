package sharepoint

import (
	"strconv"
	"strings"
)

// BatchMethodIDPrefix prefixes the synthetic Method IDs of generated batch methods.
const BatchMethodIDPrefix = "VP_IDX"

// ErrorCodeSuccess is the code the server reports for a successful method.
const ErrorCodeSuccess = "0x00000000"

// UpdateResult is the server outcome of one batch method.
type UpdateResult struct {
	MethodID  string    `json:"method_id"`            // e.g. "VP_IDX0"
	Command   Command   `json:"command"`              // command echoed by the server
	ErrorCode string    `json:"error_code"`           // "0x00000000" on success
	ErrorText string    `json:"error_text,omitempty"` // server message, empty on success
	Item      *ListItem `json:"item,omitempty"`       // row state after the method; nil when not returned
}

// Succeeded reports whether the server accepted the method.
func (r UpdateResult) Succeeded() bool {
	return r.ErrorCode == "" || r.ErrorCode == ErrorCodeSuccess
}

// Index returns the position of the originating mutation for generated methods.
// Methods appended by the caller report ok=false.
func (r UpdateResult) Index() (int, bool) {
	if !strings.HasPrefix(r.MethodID, BatchMethodIDPrefix) {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimPrefix(r.MethodID, BatchMethodIDPrefix))
	if err != nil {
		return 0, false
	}
	return i, true
}

// BatchMethodID returns the synthetic method ID for the mutation at index i.
func BatchMethodID(i int) string {
	return BatchMethodIDPrefix + strconv.Itoa(i)
}
