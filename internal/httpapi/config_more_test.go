package httpapi

import "testing"

func TestSetMaxBodyBytes_DefaultWhenNonPositive(t *testing.T) {
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB on zero, got %d", maxBodyBytes)
	}
}

func TestSetMaxBodyBytes_PositiveSetsValue(t *testing.T) {
	SetMaxBodyBytes(1234)
	defer SetMaxBodyBytes(0)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}

func TestSetCORSOptions_EmptyListsMeanAll(t *testing.T) {
	SetCORSOptions(true, nil, nil, nil, false)
	defer SetCORSOptions(true, nil, nil, nil, true)
	if len(corsAllowedOrigins) != 1 || corsAllowedOrigins[0] != "*" {
		t.Fatalf("origins=%v", corsAllowedOrigins)
	}
	if len(corsAllowedMethods) != len(defaultCORSMethods) {
		t.Fatalf("methods=%v", corsAllowedMethods)
	}
	if corsAllowCredentials {
		t.Fatalf("credentials should follow the argument")
	}
}

func TestCORSOptions_CredentialedWildcardEchoesOrigin(t *testing.T) {
	SetCORSOptions(true, []string{"*"}, nil, nil, true)
	opts := corsOptions()
	if opts.AllowOriginFunc == nil || opts.AllowedOrigins != nil {
		t.Fatalf("expected origin func for credentialed wildcard, got %+v", opts)
	}
	SetCORSOptions(true, []string{"http://localhost:3000"}, nil, nil, true)
	defer SetCORSOptions(true, nil, nil, nil, true)
	if opts := corsOptions(); opts.AllowOriginFunc != nil || len(opts.AllowedOrigins) != 1 {
		t.Fatalf("explicit origins must be kept, got %+v", opts)
	}
}
