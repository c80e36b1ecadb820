package art

import "errors"

// ErrFormat is returned by FrozenView when the supplied buffer does not
// describe a valid serialized tree: bad magic, truncated length, or a
// misaligned base address.
var ErrFormat = errors.New("art: malformed frozen buffer")

// errFrozenMutation is the contract-violation panic value raised when a
// mutating operation is attempted against a frozen tree. Frozen trees
// borrow a caller-owned buffer and never allocate; mutating them would
// require a node allocation the borrowed lifecycle cannot provide.
const errFrozenMutation = "art: cannot mutate a frozen tree"
