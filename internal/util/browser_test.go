package util

import "testing"

func TestBrowserCommands(t *testing.T) {
	t.Parallel()

	for _, goos := range []string{"windows", "darwin", "linux"} {
		cmds := browserCommands(goos, "http://localhost:3000/data/1")
		if len(cmds) == 0 {
			t.Fatalf("%s: no commands", goos)
		}
		for _, args := range cmds {
			if args[len(args)-1] != "http://localhost:3000/data/1" {
				t.Fatalf("%s: url not passed as last argument: %v", goos, args)
			}
		}
	}
}
