// Package script runs user drawing scripts written in Lua.
//
// Each script gets its own sandboxed gopher-lua state with only the base,
// table, string and math libraries plus a reduced os table (time, clock,
// date, difftime). Top-level code runs once when the script is loaded;
// the loader then looks up an entry point such as draw and calls it once
// per frame with an lcd object:
//
//	function draw(lcd)
//	    lcd:clearBuffer()
//	    lcd:setFont("helvB08")
//	    lcd:drawStr(2, 12, "Hello")
//	    lcd:drawFrame(0, 0, lcd.width, lcd.height)
//	    lcd:sendBuffer()
//	end
//
// The lcd object mirrors the u8g2 C++ API: method names, argument order
// and baseline text placement follow u8g2 so that drawing code can be
// ported to firmware line by line.
//
// Every call into Lua runs under an execution timeout. gopher-lua checks
// the context between instructions, so a runaway loop in a script is
// stopped and reported as an error instead of hanging the host.
package script
