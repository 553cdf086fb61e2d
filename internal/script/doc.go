/*
Package script embeds a JavaScript runtime (goja) and bridges it to the
engine.

Native transition points call Bridge.Fire with an event name. Listeners
registered through mainWindow.on / gameList.on receive an event object
with type, cancelable, preventDefault(), defaultPrevented and
stopPropagation(). For cancelable events, calling preventDefault or
returning false vetoes the native action. A listener that throws is
logged and recorded in Failures; the event proceeds.

Timers (setTimeout, setInterval) run from Step on the UI loop, so script
callbacks and animations share one thread and one clock. Each top-level
call into script code is bounded by Config.CallTimeout.

Script-issued commands go through Host, which the engine implements with
the same request API used for keyboard input.
*/
package script
