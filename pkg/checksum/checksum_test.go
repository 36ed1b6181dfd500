package checksum

import (
	"testing"
)

func TestHashers(t *testing.T) {
	data := []byte("blackboard snapshot")

	for _, ht := range []Type{TypeXXHash, TypeCRC32C} {
		t.Run(string(ht), func(t *testing.T) {
			h, err := New(ht)
			if err != nil {
				t.Fatalf("failed to create %s hasher: %v", ht, err)
			}
			if h.Name() != string(ht) {
				t.Errorf("Name() = %s, want %s", h.Name(), ht)
			}

			sum := h.Sum(data)
			if sum != h.Sum(data) {
				t.Error("checksum is not deterministic")
			}
			if !h.Verify(data, sum) {
				t.Error("Verify failed for unchanged data")
			}

			corrupted := append([]byte(nil), data...)
			corrupted[0] ^= 0xFF
			if h.Verify(corrupted, sum) {
				t.Error("Verify passed for corrupted data")
			}
		})
	}
}

func TestKnownValues(t *testing.T) {
	// xxhash64("") 与 crc32c("123456789") 的标准值
	if got := Default().Sum(nil); got != 0xef46db3751d8e999 {
		t.Errorf("xxhash empty = %x", got)
	}
	h, _ := New(TypeCRC32C)
	if got := h.Sum([]byte("123456789")); got != 0xe3069283 {
		t.Errorf("crc32c check value = %x", got)
	}
}

func TestNewUnsupported(t *testing.T) {
	if _, err := New("md5"); err == nil {
		t.Error("expected error for unsupported type")
	}
	if h, err := New(""); err != nil || h.Name() != string(TypeXXHash) {
		t.Errorf("New(\"\") = %v, %v", h, err)
	}
}
