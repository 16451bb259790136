// Command tokq checks, stores and interactively edits typed order and filter
// expressions over prediction-market token records.
package main

func main() {
	Execute()
}
