// Package domain contains the core business entities of the task tracker
// (User, Profile, Team, Task) together with the authorization policy and the
// task lifecycle state machine. It is independent of storage and transport:
// every decision takes the acting user explicitly.
package domain
