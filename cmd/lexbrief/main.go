// File: cmd/lexbrief/main.go
package main

func main() {
	Execute()
}
