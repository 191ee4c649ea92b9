/*
Package densemap contains a memory-efficient map of dense int64 keys to
small integer values in 0..254, built for key spaces of billions of
mostly consecutive identifiers (e.g. OSM node IDs) where only a handful
of distinct values occur within any local neighbourhood of keys.

Data Structure Documentation

Map

A map holds a growable index of blocks, one per contiguous key range.
Index entries between touched blocks stay empty and cost only a slot.

    Key split (B = bytes per bit-plane):
    +--------------------------------+-------------------------+
    | block number = key >> log2(8B) | offset = key & (8B - 1) |
    +--------------------------------+-------------------------+

Block

A block covers 8*B consecutive keys and comprises of a lookup header of
2^w byte slots followed by w bit-planes of B bytes each. The width w is
never stored; it is recovered from the block's byte length, which equals
2^w + B*w for exactly one w in 1..8.

    Block layout (width w):
    +--------------+---------+---------+-------+-----------+
    | header (2^w) | plane 0 | plane 1 |  ...  | plane w-1 |
    +--------------+---------+---------+-------+-----------+

Header

Header slot 0 is reserved and never assigned, so a key whose plane bits
are all zero (the untouched state) decodes to "not found" with no extra
bookkeeping. Slots 1..2^w-1 each hold one biased value (value+1) seen in
the block; a raw 0 byte marks a free slot.

    +------------+----------------+-------+----------------------+
    | 0 (unused) | biased value 1 |  ...  | biased value 2^w - 1 |
    +------------+----------------+-------+----------------------+

Code

Reading a key's bit at its offset across all w planes reconstructs an
integer code in 0..2^w-1 which indexes the header directly. Writing a
value stores its header slot index, one bit per plane. When the header
has no free slot left for a new distinct value the block grows by one
plane: the header doubles, the planes shift right behind it, and the
appended most-significant plane is implicitly zero, so every existing
code keeps its meaning.
*/
package densemap
