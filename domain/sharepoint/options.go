package sharepoint

// QueryOptions controls a GetListItems request.
// Use DefaultQueryOptions for the documented defaults; the zero value has both
// flags off.
type QueryOptions struct {
	ViewName  string // empty selects the list's default view
	RowLimit  int    // 0 leaves the limit to the server
	Folder    string // empty is the list root
	Recursive bool   // include items from subfolders
	DateInUTC bool   // ask the server for UTC timestamps
}

// DefaultQueryOptions returns recursive, UTC-dated options with no view or row limit.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		Recursive: true,
		DateInUTC: true,
	}
}

// OnErrorPolicy tells the server what to do when a batch method fails.
type OnErrorPolicy string

const (
	OnErrorContinue OnErrorPolicy = "Continue"
	OnErrorReturn   OnErrorPolicy = "Return"
)

// BatchOptions are the attributes of the Batch element. Empty strings leave
// the value to the server. The policy is not checked locally.
type BatchOptions struct {
	ViewName    string
	OnError     OnErrorPolicy
	ListVersion string
	Version     string
}

// DefaultBatchOptions returns options with OnError=Continue.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{OnError: OnErrorContinue}
}

// EffectiveOnError returns the configured policy, Continue when unset.
func (o BatchOptions) EffectiveOnError() OnErrorPolicy {
	if o.OnError == "" {
		return OnErrorContinue
	}
	return o.OnError
}
