package plmd

// Document is a self-contained, serializable description of a blob's
// contents. Encode turns it into a blob; (*Metadata).Document recovers it.
type Document struct {
	Layout       []Set        `json:"layout" yaml:"layout" cbor:"layout"`
	ImageToCIS   []CISBinding `json:"image_to_cis" yaml:"image_to_cis" cbor:"image_to_cis"`
	SamplerToCIS []CISBinding `json:"sampler_to_cis" yaml:"sampler_to_cis" cbor:"sampler_to_cis"`
	User         []UserPair   `json:"user" yaml:"user" cbor:"user"`
	VersionMajor uint32       `json:"version_major" yaml:"version_major" cbor:"version_major"`
	VersionMinor uint32       `json:"version_minor" yaml:"version_minor" cbor:"version_minor"`
}

// Set is one descriptor set of a Document.
type Set struct {
	Descriptors []Descriptor `json:"descriptors" yaml:"descriptors" cbor:"descriptors"`
}

// CISBinding is one combined image/sampler map entry of a Document.
type CISBinding struct {
	CombinedIDs []uint32 `json:"combined_ids" yaml:"combined_ids" cbor:"combined_ids"`
	Set         uint32   `json:"set" yaml:"set" cbor:"set"`
	Binding     uint32   `json:"binding" yaml:"binding" cbor:"binding"`
}

// UserPair is one user key/value entry of a Document.
type UserPair struct {
	Key   string `json:"key" yaml:"key" cbor:"key"`
	Value string `json:"value" yaml:"value" cbor:"value"`
}

// Document copies the decoded contents out of the handle. The result does
// not reference the handle's buffer and survives Destroy.
func (md *Metadata) Document() *Document {
	doc := &Document{
		VersionMajor: md.header.VersionMajor,
		VersionMinor: md.header.VersionMinor,
	}

	layout := md.Layout()
	doc.Layout = make([]Set, layout.Len())
	for i := range doc.Layout {
		doc.Layout[i].Descriptors = layout.Set(i).Descriptors()
	}

	doc.ImageToCIS = cisBindings(md.ImageToCIS())
	doc.SamplerToCIS = cisBindings(md.SamplerToCIS())

	user := md.UserMetadata()
	doc.User = make([]UserPair, user.Len())
	for i := range doc.User {
		e := user.Entry(i)
		doc.User[i] = UserPair{Key: e.Key(), Value: e.Value()}
	}
	return doc
}

func cisBindings(m CISMap) []CISBinding {
	out := make([]CISBinding, m.Len())
	for i := range out {
		e := m.Entry(i)
		out[i] = CISBinding{
			Set:         e.SetID(),
			Binding:     e.BindingID(),
			CombinedIDs: e.CombinedIDs(),
		}
	}
	return out
}
