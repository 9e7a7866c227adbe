package changelog

// MissingSourceError reports a changelog source with no identity block.
type MissingSourceError struct {
	Source string // where the text came from, if known
}

func (e *MissingSourceError) Error() string {
	if e.Source != "" {
		return "changelog source is empty: " + e.Source
	}
	return "changelog source is empty"
}

// Is lets errors.Is(err, ErrMissingSource) match any *MissingSourceError.
func (e *MissingSourceError) Is(target error) bool {
	_, ok := target.(*MissingSourceError)
	return ok
}

// ErrMissingSource is returned by Parse when the input is empty after trimming.
var ErrMissingSource error = &MissingSourceError{}
