// Command gobounce throttles or debounces lines read from stdin.
//
//	tail -f app.log | gobounce debounce --delay 500ms
//	gobounce throttle --delay 1s --leading < events.txt
package main

func main() {
	Execute()
}
