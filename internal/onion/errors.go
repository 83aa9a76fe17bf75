package onion

import "errors"

var (
	// ErrNoAnimationData means neither the target nor its parent has keys.
	ErrNoAnimationData = errors.New("no animation data")
	// ErrNoSelection means an operation needed a selected entity.
	ErrNoSelection = errors.New("nothing selected")
	// ErrTargetUnresolvable means the onion target no longer exists.
	ErrTargetUnresolvable = errors.New("onion target no longer exists")
	// ErrInvalidConfiguration is returned for display settings that cannot
	// be baked or drawn.
	ErrInvalidConfiguration = errors.New("invalid onion configuration")
	// ErrControllerSpent is returned when starting a controller twice.
	ErrControllerSpent = errors.New("draw controller already started")
)
