// Command romctl inspects and rebuilds the resource tables of a Metal Max
// cartridge image.
package main

func main() {
	execute()
}
