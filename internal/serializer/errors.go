package serializer

import "errors"

var (
	// ErrUnsupportedDraft is returned for drafts of an unknown concrete type.
	ErrUnsupportedDraft = errors.New("unsupported draft type")

	// ErrUnknownEntityType is returned when decoding a payload of an entity
	// type the serializer does not know.
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrMalformedNumber is returned when numeric text cannot be converted
	// to a number. Drafts are validated before serialization, so seeing it
	// means validation was skipped.
	ErrMalformedNumber = errors.New("malformed numeric field")

	// ErrMalformedPayload is returned when payload bytes do not decode into
	// the entity shape.
	ErrMalformedPayload = errors.New("malformed payload")
)
