package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	// NanoidSize matches the length of Firestore auto ids so documents look
	// alike whichever backend allocated them.
	NanoidSize     = 20
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size == 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}

// PrefixedNanoID returns prefix + "-" + a fresh id.
func PrefixedNanoID(prefix string) string {
	return prefix + "-" + NanoID()
}
