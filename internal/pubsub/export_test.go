package pubsub

func encodeForTest(v any) ([]byte, error) {
	return encode(v)
}
