//go:build !linux

package chunk

func adviseRandom(ByteSource) error {
	return nil
}
