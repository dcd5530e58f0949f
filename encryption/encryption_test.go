package encryption

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncryptDecrypt(t *testing.T) {
	plaintext := []byte(`{"id":"g1","status":2,"players":[{"id":1,"stack":500}]}`)
	key, err := KeyFromUUIDStr("7faadaf6-ed32-47a9-a09a-01fd0daf9c3f")
	if err != nil {
		t.Fatal(err)
	}

	encrypted, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Equal(encrypted, plaintext) {
		t.Errorf("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(encrypted, key)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(decrypted, plaintext) {
		t.Errorf("%s != %s", decrypted, plaintext)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	key1, _ := KeyFromUUIDStr("7faadaf6-ed32-47a9-a09a-01fd0daf9c3f")
	key2, _ := KeyFromUUIDStr("b42ac4a3-8789-4f6e-98ca-2e829478e362")

	encrypted, err := Encrypt([]byte("hole cards"), key1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(encrypted, key2); err == nil {
		t.Errorf("decrypt with the wrong key must fail")
	}
}

func TestDecryptTruncated(t *testing.T) {
	key, _ := KeyFromUUIDStr("7faadaf6-ed32-47a9-a09a-01fd0daf9c3f")
	if _, err := Decrypt([]byte{0x01, 0x02}, key); err == nil {
		t.Errorf("truncated payload must fail")
	}
}
