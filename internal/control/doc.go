// Package control provides discrete-time controllers for a heating
// element driven from periodic 10-bit ADC samples.
//
// Controllers implement the [Controller] interface to turn the current
// sensor reading into a drive level for the element:
//
//   - [PID]: integer proportional-integral-derivative controller
//   - [BangBang]: on/off controller with hysteresis
//
// All arithmetic is integer-only. Controllers keep no notion of time;
// the caller invokes NextValue once per sampling interval and owns the
// schedule. Calls must arrive in sample order, since the internal
// accumulators are order-dependent.
//
// Instances are not safe for concurrent use. Confine each controller
// to one control loop, or serialize access externally.
package control
