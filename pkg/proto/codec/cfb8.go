// Package codec implements the framed wire codec of §4.1: length-prefixed
// packets, optional zlib compression above a threshold, and optional
// AES-CFB8 encryption applied around the length prefix once login
// completes.
package codec

import "crypto/cipher"

// cfb8 is a self-synchronizing 8-bit CFB stream cipher, the mode the
// Minecraft protocol uses once encryption is enabled (§3). Ported from
// the teacher corpus's CFB8 implementation (itself derived from
// Tnze/go-mc's net/CFB8).
type cfb8 struct {
	block     cipher.Block
	blockSize int
	iv        []byte
	temp      []byte
	decrypt   bool
}

func newCFB8(block cipher.Block, iv []byte, decrypt bool) *cfb8 {
	ivCopy := make([]byte, len(iv))
	copy(ivCopy, iv)
	return &cfb8{
		block:     block,
		blockSize: block.BlockSize(),
		iv:        ivCopy,
		temp:      make([]byte, block.BlockSize()),
		decrypt:   decrypt,
	}
}

func (c *cfb8) XORKeyStream(dst, src []byte) {
	for i := range src {
		copy(c.temp, c.iv)
		c.block.Encrypt(c.iv, c.iv)
		keystreamByte := c.iv[0]
		outputByte := src[i] ^ keystreamByte
		dst[i] = outputByte
		copy(c.iv, c.temp[1:])
		if c.decrypt {
			c.iv[c.blockSize-1] = src[i]
		} else {
			c.iv[c.blockSize-1] = outputByte
		}
	}
}

// newEncryptStream returns a cipher.Stream encrypting with CFB8.
func newEncryptStream(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, false)
}

// newDecryptStream returns a cipher.Stream decrypting with CFB8.
func newDecryptStream(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, true)
}
