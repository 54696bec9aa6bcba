// Package resources binds the cartridge's editable tables to the ROM codecs.
//
// Five resources are supported:
//
//   - Treasures: (map, x, y, item) records in a fixed table; map 0xFF marks
//     an empty slot.
//   - Random treasures: (item, chance) records in a zero-padded table, plus
//     the default item and chance bytes.
//   - Check points: six (map, x, y) tiles the game checks for scripted
//     searches. Every slot is live.
//   - Computers: (map, type, x, y) records in a fixed table, kept as an
//     ordered set.
//   - Event tiles: per-map groups of (x, y, tile) records keyed by event id,
//     stored in a pointer-indexed block and shared between maps that point at
//     the same group.
//
// Where the resources live is described by a Layout, a YAML document of
// cartridge file offsets. Resolve converts it to buffer offsets; nothing
// below this package sees a file offset.
//
// Which maps use event tiles, and at which index, belongs to the map
// properties and is supplied with the layout. After Apply the rewritten
// indices are returned for the caller to store back.
package resources
