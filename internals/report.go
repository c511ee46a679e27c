package internals

import (
	"encoding/json"
	"io"
)

// Report describes the duplicates found below one root directory
type Report struct {
	Root          string        `json:"root"`
	HashAlgorithm string        `json:"hash-algorithm"`
	FilesIndexed  int           `json:"files-indexed"`
	FilesSkipped  int           `json:"files-skipped"`
	Groups        []GroupReport `json:"duplicate-groups"`
	Reclaimable   uint64        `json:"reclaimable-bytes"`
}

// GroupReport describes one duplicate group
type GroupReport struct {
	Hash   string   `json:"hash"`
	Size   uint64   `json:"size"`
	Keep   string   `json:"keep"`
	Delete []string `json:"delete"`
}

// NewReport summarizes the state of a fully built index
func NewReport(root string, index *FingerprintIndex) *Report {
	rep := &Report{
		Root:          root,
		HashAlgorithm: index.HashAlgorithm(),
		FilesIndexed:  index.Len(),
		FilesSkipped:  len(index.Skipped()),
		Groups:        make([]GroupReport, 0),
	}
	for _, group := range index.DuplicateGroups() {
		rep.Groups = append(rep.Groups, GroupReport{
			Hash:   string(group.Hash),
			Size:   group.Size,
			Keep:   group.Keep(),
			Delete: group.Candidates(),
		})
		rep.Reclaimable += group.Size * uint64(len(group.Candidates()))
	}
	return rep
}

// WriteJSON writes the report as indented JSON
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
