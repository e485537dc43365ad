package ghost

// OperationKind classifies a client operation for policy decisions.
type OperationKind string

const (
	// OperationRead covers non-member reads: site metadata, post and tag
	// listings, single-post fetches.
	OperationRead OperationKind = "read"

	// OperationWrite covers content creation and field updates that do
	// not change publication state.
	OperationWrite OperationKind = "write"

	// OperationPublish transitions a post into the published state.
	OperationPublish OperationKind = "publish"

	// OperationUnpublish transitions a post back to draft.
	OperationUnpublish OperationKind = "unpublish"

	// OperationDelete permanently removes a resource.
	OperationDelete OperationKind = "delete"

	// OperationMemberRead reads member data. Members carry personal
	// information, so this is gated separately from other reads.
	OperationMemberRead OperationKind = "member_read"
)

// ValidOperationKinds returns every kind the gate decides on.
func ValidOperationKinds() []OperationKind {
	return []OperationKind{
		OperationRead,
		OperationWrite,
		OperationPublish,
		OperationUnpublish,
		OperationDelete,
		OperationMemberRead,
	}
}

// IsValid returns true if the operation kind is recognized.
func (k OperationKind) IsValid() bool {
	switch k {
	case OperationRead, OperationWrite, OperationPublish,
		OperationUnpublish, OperationDelete, OperationMemberRead:
		return true
	}
	return false
}

// IsMutating returns true if the operation changes remote state.
func (k OperationKind) IsMutating() bool {
	switch k {
	case OperationWrite, OperationPublish, OperationUnpublish, OperationDelete:
		return true
	}
	return false
}

// String returns the string representation of the operation kind.
func (k OperationKind) String() string {
	return string(k)
}

// Denial reasons reported through Error.Reason when the gate refuses an
// operation. Each names the policy setting responsible.
const (
	DenialReadonlyMode         = "readonly_mode"
	DenialPublishNotAllowed    = "allow_publish=false"
	DenialDeleteNotAllowed     = "allow_delete=false"
	DenialMemberReadNotAllowed = "allow_member_access=false"
)

// Policy is the locally enforced capability set. It is evaluated before
// any network I/O, so a denied operation costs zero requests and is
// indistinguishable from never having been attempted on the wire.
//
// The zero value allows plain reads and writes only. Use DefaultPolicy
// for the standard install posture.
type Policy struct {
	// ReadonlyMode denies every mutating operation regardless of the
	// other settings.
	ReadonlyMode bool `hcl:"readonly_mode,optional" json:"readonly_mode"`

	// AllowPublish permits publication state changes in both directions.
	AllowPublish bool `hcl:"allow_publish,optional" json:"allow_publish"`

	// AllowDelete permits permanent deletion of posts and tags.
	AllowDelete bool `hcl:"allow_delete,optional" json:"allow_delete"`

	// AllowMemberAccess permits reading member data.
	AllowMemberAccess bool `hcl:"allow_member_access,optional" json:"allow_member_access"`
}

// DefaultPolicy returns the standard capability set: reads, writes and
// publication state changes allowed, deletion and member access denied.
func DefaultPolicy() Policy {
	return Policy{AllowPublish: true}
}

// Decide evaluates the policy for one operation kind. Rules are checked
// in precedence order and the first denial wins; reads that are not
// member reads are always allowed. An allowed operation has an empty
// reason, a denied one always names the rule.
func (p Policy) Decide(kind OperationKind) (allowed bool, reason string) {
	if p.ReadonlyMode && kind.IsMutating() {
		return false, DenialReadonlyMode
	}
	if (kind == OperationPublish || kind == OperationUnpublish) && !p.AllowPublish {
		return false, DenialPublishNotAllowed
	}
	if kind == OperationDelete && !p.AllowDelete {
		return false, DenialDeleteNotAllowed
	}
	if kind == OperationMemberRead && !p.AllowMemberAccess {
		return false, DenialMemberReadNotAllowed
	}
	return true, ""
}
