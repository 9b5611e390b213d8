package security

import "testing"

func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword(wrong): %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestVerifyPasswordMalformed(t *testing.T) {
	for _, bad := range []string{"", "plaintext", "$bcrypt$whatever"} {
		if _, err := VerifyPassword("x", []byte(bad)); err == nil {
			t.Errorf("malformed hash %q accepted", bad)
		}
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := GenerateSessionToken(64)
		if err != nil {
			t.Fatalf("GenerateSessionToken: %v", err)
		}
		if token == "" {
			t.Fatal("empty token")
		}
		if _, dup := seen[token]; dup {
			t.Fatal("duplicate token generated")
		}
		seen[token] = struct{}{}
	}
}
