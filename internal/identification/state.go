package identification

// State is a step of the per-file pipeline.
type State int

const (
	StateDiscovered State = iota
	StateCacheCheck
	StateAlreadyCataloged
	StateRemoteFetchByID
	StateUseSentinel
	StateRemoteFetchByTitle
	StatePersist
	StateTranslate
	StateCataloged
	StateFailed
)

var stateNames = map[State]string{
	StateDiscovered:         "discovered",
	StateCacheCheck:         "cache_check",
	StateAlreadyCataloged:   "already_cataloged",
	StateRemoteFetchByID:    "remote_fetch_by_id",
	StateUseSentinel:        "use_sentinel",
	StateRemoteFetchByTitle: "remote_fetch_by_title",
	StatePersist:            "persist",
	StateTranslate:          "translate",
	StateCataloged:          "cataloged",
	StateFailed:             "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the pipeline stops in s.
func (s State) Terminal() bool {
	return s == StateAlreadyCataloged || s == StateCataloged || s == StateFailed
}
