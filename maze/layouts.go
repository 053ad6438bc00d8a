package maze

import (
	"fmt"
	"sort"
)

var layouts = map[string][]string{
	"classic": {
		"###################",
		"#o.......#.......o#",
		"#.##.###.#.###.##.#",
		"#.................#",
		"#.##.#.#####.#.##.#",
		"#....#...#...#....#",
		"####.### # ###.####",
		"    .# GGGG  #.    ",
		"####.# ##### #.####",
		"#........#........#",
		"#.##.###.#.###.##.#",
		"#o.#.....P.....#.o#",
		"##.#.#.#####.#.#.##",
		"#....#...#...#....#",
		"#.######.#.######.#",
		"#.................#",
		"###################",
	},
	"open": {
		"#############",
		"#o....#....o#",
		"#.##.###.##.#",
		"#...........#",
		"#.#.##G##.#.#",
		"#.#..GGG..#.#",
		"#.##.###.##.#",
		"#.....P.....#",
		"#.###.#.###.#",
		"#o....#....o#",
		"#############",
	},
}

// Layouts lists the built-in layout names.
func Layouts() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load parses built-in layouts by name, one per level.
func Load(names ...string) ([]*Maze, error) {
	mazes := make([]*Maze, 0, len(names))
	for _, name := range names {
		rows, ok := layouts[name]
		if !ok {
			return nil, fmt.Errorf("unknown layout %q: %w", name, ErrBadLayout)
		}
		m, err := Parse(name, rows)
		if err != nil {
			return nil, err
		}
		mazes = append(mazes, m)
	}
	return mazes, nil
}
