// Package mojang implements the thin slice of Mojang's session-server
// protocol the login handshake needs: a keypair for the encryption
// request, the server-id hash it signs over, and the hasJoined lookup
// that turns a verified session into an authoritative account UUID.
//
// This is deliberately not a full authentication client - the proxy
// never logs a player in itself, it only verifies a session the real
// client already established with Mojang.
package mojang

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// KeyPair is the proxy-wide RSA keypair used to sign the encryption
// request every online-mode login sends the client.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  []byte // ASN.1 DER SubjectPublicKeyInfo, as the wire format requires
}

// NewKeyPair generates a fresh 1024-bit keypair, the size real servers use.
func NewKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		return nil, err
	}
	pub, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Private: priv, Public: pub}, nil
}

// VerifyToken returns a fresh random 4-byte token for an encryption request.
func VerifyToken() ([]byte, error) {
	tok := make([]byte, 4)
	_, err := rand.Read(tok)
	return tok, err
}

// Decrypt unwraps an RSA-PKCS1v15 ciphertext from an encryption response.
func (k *KeyPair) Decrypt(ciphertext []byte) ([]byte, error) {
	return rsa.DecryptPKCS1v15(rand.Reader, k.Private, ciphertext)
}

// ServerHash computes the serverId hash Mojang's hasJoined endpoint expects:
// the SHA-1 digest of serverID+sharedSecret+publicKey, formatted as Java's
// new BigInteger(digest).toString(16) would - signed two's-complement, so a
// digest with its high bit set yields a "-" prefixed hex string.
func ServerHash(serverID string, sharedSecret, publicKey []byte) string {
	h := sha1.New()
	h.Write([]byte(serverID))
	h.Write(sharedSecret)
	h.Write(publicKey)
	digest := h.Sum(nil)

	negative := digest[0]&0x80 != 0
	n := new(big.Int).SetBytes(digest)
	if negative {
		max := new(big.Int).Lsh(big.NewInt(1), uint(len(digest)*8))
		n = n.Sub(n, max)
	}
	return n.Text(16)
}

// HasJoinedResponse is the subset of Mojang's hasJoined JSON this proxy uses.
type HasJoinedResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Properties []struct {
		Name      string `json:"name"`
		Value     string `json:"value"`
		Signature string `json:"signature,omitempty"`
	} `json:"properties"`
}

// UUID parses the response's undashed id into a uuid.UUID.
func (r *HasJoinedResponse) UUID() (uuid.UUID, error) {
	return uuid.Parse(insertDashes(r.ID))
}

func insertDashes(id string) string {
	if len(id) != 32 {
		return id
	}
	return fmt.Sprintf("%s-%s-%s-%s-%s", id[0:8], id[8:12], id[12:16], id[16:20], id[20:32])
}

const hasJoinedURL = "https://sessionserver.mojang.com/session/minecraft/hasJoined"

// HasJoined calls Mojang's session server to verify a client completed its
// own handshake with the given username and serverId hash, returning the
// account's authoritative UUID and textures on success.
func HasJoined(username, serverHash string) (*HasJoinedResponse, error) {
	u := hasJoinedURL + "?username=" + url.QueryEscape(username) + "&serverId=" + url.QueryEscape(serverHash)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(u)
	req.Header.SetMethod(fasthttp.MethodGet)

	client := &fasthttp.Client{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	if err := client.Do(req, resp); err != nil {
		return nil, fmt.Errorf("mojang: hasJoined request failed: %w", err)
	}
	if resp.StatusCode() == 204 || len(bytes.TrimSpace(resp.Body())) == 0 {
		return nil, fmt.Errorf("mojang: session not found for %q", username)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("mojang: hasJoined returned status %d", resp.StatusCode())
	}
	var out HasJoinedResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("mojang: decoding hasJoined response: %w", err)
	}
	return &out, nil
}
