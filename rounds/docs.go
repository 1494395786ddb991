/*
Package rounds implements the round-transition engine of the voting app.

A run is a sequence of rounds. Each round collects one payload per
participant and settles once threshold-many payloads agree on the same
selection value; the settled value is committed to the synchronized store
and the emitted event selects the next round through a static transition
graph. Rounds that can not settle (no majority possible, timeout) restart
themselves with an empty collection.

The engine performs no networking: an external transport must deliver an
identical sequence of payloads to every replica. Within one process the
engine serializes all round mutation on a single control thread.
*/
package rounds
