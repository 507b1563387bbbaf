package types

// Version is the canonical project version.
// The CLI, the journal format, and the session log schema share this
// version per the lockstep versioning policy.
const Version = "0.2.0"
