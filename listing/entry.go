package listing

// Kind classifies a directory entry
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Entry is one classified child of the directory being listed
type Entry struct {
	Name string // raw filesystem basename
	Kind Kind
}

// StatFunc classifies a single entry name of the directory being listed.
// A non-nil error means the entry could not be classified.
type StatFunc func(name string) (Kind, error)

// Classification is the outcome of classifying one entry name:
// either [Classified] or [Unreadable].
type Classification interface {
	classification()
}

// Classified is an entry whose kind is known
type Classified struct {
	Entry
}

// Unreadable is an entry whose metadata lookup failed (vanished, permission
// denied, broken symlink...). It never appears in a [Listing].
type Unreadable struct {
	Name string
	Err  error
}

func (Classified) classification() {}
func (Unreadable) classification() {}

// Classify calls stat exactly once for name
func Classify(name string, stat StatFunc) Classification {
	kind, err := stat(name)
	if err != nil {
		return Unreadable{Name: name, Err: err}
	}
	return Classified{Entry{Name: name, Kind: kind}}
}
