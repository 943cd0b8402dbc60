package bundle

import (
	"strings"
	"testing"
)

const lddSample = `	linux-vdso.so.1 (0x00007fff2bdfe000)
	libdl.so.2 => /lib/x86_64-linux-gnu/libdl.so.2 (0x00007f2a4c000000)
	libpthread.so.0 => /lib/x86_64-linux-gnu/libpthread.so.0 (0x00007f2a4bffb000)
	libX11.so.6 => /lib/x86_64-linux-gnu/libX11.so.6 (0x00007f2a4bcc0000)
	libgobject-2.0.so.0 => /usr/lib/x86_64-linux-gnu/libgobject-2.0.so.0 (0x00007f2a4bc60000)
	libmissing.so.1 => not found
	libc.so.6 => /lib/x86_64-linux-gnu/libc.so.6 (0x00007f2a4ba00000)
	/lib64/ld-linux-x86-64.so.2 (0x00007f2a4c1f0000)
	libX11.so.6 => /lib/x86_64-linux-gnu/libX11.so.6 (0x00007f2a4bcc0000)
`

var testExcludes = []string{"ld-linux", "libc.so", "libm.so", "libpthread.so", "libdl.so", "librt.so"}

func TestParseLddPaths(t *testing.T) {
	got := ParseLddPaths(lddSample, testExcludes)

	want := []string{
		"/lib/x86_64-linux-gnu/libX11.so.6",
		"/usr/lib/x86_64-linux-gnu/libgobject-2.0.so.0",
	}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParseLddPathsSkipsCoreLibs(t *testing.T) {
	for _, p := range ParseLddPaths(lddSample, testExcludes) {
		for _, ex := range testExcludes {
			if strings.Contains(p, ex) {
				t.Errorf("core library %q leaked through excludes", p)
			}
		}
	}
}

func TestParseLddPathsEmptyInput(t *testing.T) {
	if got := ParseLddPaths("", testExcludes); len(got) != 0 {
		t.Fatalf("empty input produced %v", got)
	}
}

func TestParseLddPathsNoExcludes(t *testing.T) {
	got := ParseLddPaths(lddSample, nil)

	// Without excludes everything resolved (and found) is kept.
	if len(got) != 5 {
		t.Fatalf("got %d paths, want 5: %v", len(got), got)
	}
}

const ldconfigSample = `302 libs found in cache '/etc/ld.so.cache'
	libnss3.so (libc6,x86-64) => /lib/x86_64-linux-gnu/libnss3.so
	libnspr4.so (libc6,x86-64) => /lib/x86_64-linux-gnu/libnspr4.so
	libc.so.6 (libc6,x86-64, OS ABI: Linux 3.2.0) => /lib/x86_64-linux-gnu/libc.so.6
	libnss3.so (libc6) => /lib/i386-linux-gnu/libnss3.so
`

func TestParseLdconfigCache(t *testing.T) {
	cache := ParseLdconfigCache(ldconfigSample)

	tests := []struct {
		name string
		want string
	}{
		{"libnss3.so", "/lib/x86_64-linux-gnu/libnss3.so"},
		{"libnspr4.so", "/lib/x86_64-linux-gnu/libnspr4.so"},
		{"libc.so.6", "/lib/x86_64-linux-gnu/libc.so.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cache[tt.name]; got != tt.want {
				t.Errorf("cache[%q] = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	if _, ok := cache["302"]; ok {
		t.Error("header line parsed as a cache entry")
	}
}

func TestParseLdconfigCacheFirstEntryWins(t *testing.T) {
	cache := ParseLdconfigCache(ldconfigSample)

	// The 64-bit entry precedes the 32-bit one and must be kept.
	if got := cache["libnss3.so"]; got != "/lib/x86_64-linux-gnu/libnss3.so" {
		t.Fatalf("cache[libnss3.so] = %q, want the first (64-bit) entry", got)
	}
}

func TestParseStatLines(t *testing.T) {
	out := `/build_libs/libX11.so.6,1482408,644
/build_libs/libnss3.so,1388536,644

/build_libs/garbage
/build_libs/libbad.so,notanumber,644
`

	libs := ParseStatLines(out)

	if len(libs) != 2 {
		t.Fatalf("got %d libraries, want 2: %v", len(libs), libs)
	}
	if libs[0].Name != "libX11.so.6" || libs[0].Size != 1482408 || libs[0].Mode != 644 {
		t.Errorf("libs[0] = %+v", libs[0])
	}
	if libs[1].Name != "libnss3.so" {
		t.Errorf("libs[1] = %+v", libs[1])
	}
}

func TestManifestLine(t *testing.T) {
	tests := []struct {
		name string
		lib  Library
		want string
	}{
		{
			name: "dynamic library",
			lib:  Library{Name: "libX11.so.6", Size: 1482408, Mode: 644, Dynamic: true},
			want: "libX11.so.6,1482408,644,1",
		},
		{
			name: "named library",
			lib:  Library{Name: "libnssckbi.so", Size: 487240, Mode: 644},
			want: "libnssckbi.so,487240,644,0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lib.ManifestLine(); got != tt.want {
				t.Errorf("ManifestLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExcluded(t *testing.T) {
	if !excluded("/lib/x86_64-linux-gnu/libc.so.6", testExcludes) {
		t.Error("libc.so.6 not excluded")
	}
	if excluded("/lib/x86_64-linux-gnu/libX11.so.6", testExcludes) {
		t.Error("libX11.so.6 wrongly excluded")
	}
}

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bindle-build:latest", "bindle-build-latest"},
		{"repo/name:tag", "repo-name-tag"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := sanitizeID(tt.in); got != tt.want {
			t.Errorf("sanitizeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
