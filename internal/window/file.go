package window

import (
	"context"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/pkg/fileutil"
)

// FileEnumerator reads the window list from a YAML or JSON file on every
// call. The file holds either a list of windows or an object with a
// "windows" list:
//
//	windows:
//	  - handle: 0x1001
//	    title: "Chat Assistant A - Browser"
//	    process: browser
//
// Windows without a handle take the lowest handles, starting at 1, that
// no other window in the file claims.
type FileEnumerator struct {
	Path string
}

// NewFileEnumerator creates an enumerator for path.
func NewFileEnumerator(path string) *FileEnumerator {
	return &FileEnumerator{Path: path}
}

type windowFile struct {
	Windows []Descriptor `yaml:"windows"`
}

// Windows reads and parses the file.
func (f *FileEnumerator) Windows(ctx context.Context) ([]Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fileutil.ReadFileWithLimit(f.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading window list %s", f.Path)
	}

	windows, err := ParseList(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing window list %s", f.Path)
	}
	return windows, nil
}

// ParseList decodes a window list from YAML or JSON.
func ParseList(data []byte) ([]Descriptor, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "decoding window list")
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	var windows []Descriptor
	switch node := root.Content[0]; node.Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&windows); err != nil {
			return nil, errors.Wrap(err, "decoding window list")
		}
	case yaml.MappingNode:
		var wf windowFile
		if err := node.Decode(&wf); err != nil {
			return nil, errors.Wrap(err, "decoding window list")
		}
		windows = wf.Windows
	default:
		return nil, errors.Newf("window list must be a list or an object with a windows key, got %s", node.Tag)
	}

	numberWindows(windows)
	return windows, nil
}

// numberWindows gives each window without a handle the lowest positive
// handle not used elsewhere in the list.
func numberWindows(windows []Descriptor) {
	used := make(map[Handle]bool, len(windows))
	for _, w := range windows {
		if w.Handle != 0 {
			used[w.Handle] = true
		}
	}

	next := Handle(1)
	for i := range windows {
		if windows[i].Handle != 0 {
			continue
		}
		for used[next] {
			next++
		}
		windows[i].Handle = next
		used[next] = true
	}
}
