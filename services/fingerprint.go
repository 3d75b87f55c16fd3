package services

import (
	"crypto/sha256"
	"encoding/hex"
	"math/bits"
	"strings"
)

// NormalizeContent bereitet Text für Fingerprints vor: Kleinschreibung
// und kollabierte Whitespaces.
func NormalizeContent(content string) string {
	return strings.Join(strings.Fields(strings.ToLower(content)), " ")
}

// ContentHash berechnet den SHA-256-Hash des normalisierten Inhalts.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(NormalizeContent(content)))
	return hex.EncodeToString(sum[:])
}

// Simhash berechnet einen 64-Bit-Fingerprint über die Wort-Shingles des
// normalisierten Inhalts. Ähnliche Texte liefern Hashes mit kleiner
// Hamming-Distanz.
func Simhash(content string) uint64 {
	words := strings.Fields(NormalizeContent(content))
	if len(words) == 0 {
		return 0
	}

	var vector [64]int
	emit := func(token string) {
		h := fnv64(token)
		for i := 0; i < 64; i++ {
			if h&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	for i, w := range words {
		emit(w)
		if i+1 < len(words) {
			emit(w + " " + words[i+1])
		}
	}

	var hash uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			hash |= 1 << uint(i)
		}
	}
	return hash
}

// HammingDistance zählt die unterschiedlichen Bits zweier Simhashes.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// SimhashNearDuplicate meldet, ob zwei Fingerprints als Duplikat gelten.
// Schwelle 3 Bit hat sich für Nachrichtentexte als brauchbar erwiesen.
func SimhashNearDuplicate(a, b uint64) bool {
	if a == 0 || b == 0 {
		return false
	}
	return HammingDistance(a, b) <= 3
}

// fnv64 ist FNV-1a, inline gehalten um Allokationen im Shingle-Loop zu sparen.
func fnv64(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	var h uint64 = offset64
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}
