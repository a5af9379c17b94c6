package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"io"
)

// NewEncryptWriter wraps w so every byte written to it is AES-CFB8
// encrypted first, key == IV per §3.
func NewEncryptWriter(w io.Writer, secret []byte) (io.Writer, error) {
	block, err := aes.NewCipher(secret)
	if err != nil {
		return nil, err
	}
	stream := newEncryptStream(block, secret)
	return &cipherWriter{w: w, stream: stream}, nil
}

// NewDecryptReader wraps r so every byte read from it is AES-CFB8
// decrypted first.
func NewDecryptReader(r io.Reader, secret []byte) (io.Reader, error) {
	block, err := aes.NewCipher(secret)
	if err != nil {
		return nil, err
	}
	stream := newDecryptStream(block, secret)
	return &cipherReader{r: r, stream: stream}, nil
}

type cipherWriter struct {
	w      io.Writer
	stream cipher.Stream
}

func (c *cipherWriter) Write(p []byte) (int, error) {
	out := make([]byte, len(p))
	c.stream.XORKeyStream(out, p)
	return c.w.Write(out)
}

type cipherReader struct {
	r      io.Reader
	stream cipher.Stream
}

func (c *cipherReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.stream.XORKeyStream(p[:n], p[:n])
	}
	return n, err
}
