package smoke

import "testing"

func TestParseMissingLibraries(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   []string
	}{
		{
			name:   "single missing library",
			stderr: "./app: error while loading shared libraries: libnss3.so: cannot open shared object file: No such file or directory",
			want:   []string{"libnss3.so"},
		},
		{
			name: "multiple missing across re-exec",
			stderr: `./app: error while loading shared libraries: libnss3.so: cannot open shared object file
headless_shell: error while loading shared libraries: libgobject-2.0.so.0: cannot open shared object file`,
			want: []string{"libnss3.so", "libgobject-2.0.so.0"},
		},
		{
			name: "duplicates collapsed",
			stderr: `a: error while loading shared libraries: libX11.so.6: cannot open shared object file
b: error while loading shared libraries: libX11.so.6: cannot open shared object file`,
			want: []string{"libX11.so.6"},
		},
		{
			name:   "clean stderr",
			stderr: "pw:browser launching headless_shell\nFirst H2: Playwright",
			want:   nil,
		},
		{
			name:   "empty stderr",
			stderr: "",
			want:   nil,
		},
		{
			name:   "unrelated error text",
			stderr: "Traceback (most recent call last):\n  ValueError: boom",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMissingLibraries(tt.stderr)

			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
