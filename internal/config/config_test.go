package config

import "testing"

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	cfg, pos, err := Load([]string{"--layout", "lp64", "--verbose", "foo.cal"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataLayout != "lp64" {
		t.Fatalf("DataLayout = %q, want lp64", cfg.DataLayout)
	}
	if !cfg.Verbose {
		t.Fatal("Verbose = false, want true")
	}
	if len(pos) != 1 || pos[0] != "foo.cal" {
		t.Fatalf("positional args = %v, want [foo.cal]", pos)
	}
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("CALIR_DATA_LAYOUT", "ilp32")
	t.Setenv("CALIR_VERBOSE", "1")
	cfg, _, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataLayout != "ilp32" {
		t.Fatalf("DataLayout = %q, want ilp32 from env", cfg.DataLayout)
	}
	if !cfg.Verbose {
		t.Fatal("Verbose = false, want true from env")
	}
}

func TestFlagOverridesEnv(t *testing.T) {
	t.Setenv("CALIR_DATA_LAYOUT", "ilp32")
	cfg, _, err := Load([]string{"--layout", "lp64"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataLayout != "lp64" {
		t.Fatalf("DataLayout = %q, want lp64 (flag must win over env)", cfg.DataLayout)
	}
}

func TestUnknownLayoutIsAnError(t *testing.T) {
	if _, _, err := Load([]string{"--layout", "bogus"}); err == nil {
		t.Fatal("expected an error for an unknown data layout")
	}
}

func TestIncludeFlagAccumulates(t *testing.T) {
	cfg, _, err := Load([]string{"--include", "a:b", "--include=c"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(cfg.IncludePath) != len(want) {
		t.Fatalf("IncludePath = %v, want %v", cfg.IncludePath, want)
	}
	for i, w := range want {
		if cfg.IncludePath[i] != w {
			t.Fatalf("IncludePath[%d] = %q, want %q", i, cfg.IncludePath[i], w)
		}
	}
}

func TestJSONFlagAndEnv(t *testing.T) {
	cfg, _, err := Load([]string{"--json"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.JSON {
		t.Fatal("JSON = false, want true")
	}

	t.Setenv("CALIR_JSON", "1")
	cfg, _, err = Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.JSON {
		t.Fatal("JSON = false, want true from env")
	}
}

func TestLayoutResolution(t *testing.T) {
	if (Config{DataLayout: "ilp32"}).Layout().PointerSize != 4 {
		t.Fatal("ilp32 layout should have 4-byte pointers")
	}
	if (Config{DataLayout: "lp64"}).Layout().PointerSize != 8 {
		t.Fatal("lp64 layout should have 8-byte pointers")
	}
}
