package models

// Result pairs an inferred record with the document it came from.
type Result struct {
	Source string `json:"source" yaml:"source"`
	Record `yaml:",inline"`
}

// ID is the record fingerprint.
func (r Result) ID() string {
	return r.Record.Fingerprint()
}
