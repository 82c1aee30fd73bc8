package errs

// Shared sentinels used by several layers. Layer-specific sentinels live next to their use cases.
var (
	ErrValidation = NewKind(KindValidation, "validation failed")
	ErrDependency = NewKind(KindDependency, "dependency unavailable")
	ErrNotFound   = NewKind(KindNotFound, "not found")
)
