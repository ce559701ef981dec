// Public domain.

package main

import "github.com/soniakeys/altaz/internal/altazprog"

func main() {
	altazprog.Main()
}
