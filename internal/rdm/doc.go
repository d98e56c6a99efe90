/*
Package rdm decodes ANSI E1.20 Remote Device Management messages.

# Message Structure

Every message starts with a fixed header followed by parameter data, an
optional intron and a two-byte checksum:

	[0]        0x01        Sub-start code (the 0xCC start code precedes the buffer)
	[1]        length      Message length, counting the start code
	[2-7]      dest UID    Manufacturer id (2) + device id (4)
	[8-13]     source UID
	[14]       tn          Transaction number
	[15]       port/resp   Port id for commands, response type for responses
	[16]       count       Message count
	[17-18]    sub-device
	[19]       cc          Command class
	[20-21]    pid         Parameter id
	[22]       pdl         Parameter data length
	[23+]      data        pdl bytes
	[..]       intron      Padding up to length - 1
	[..]       checksum    Sum of the start code and every byte before it

# Decoding

A Decoder reads the header, then dispatches on command class and response
type. Acknowledged responses and all commands decode their parameter data
through a Table of Descriptors. Ids at or above 0x8000 are manufacturer
specific and are looked up in the VendorOverlay of the addressed device:
the destination for commands, the source for responses.

	dec := rdm.NewDecoder()
	res, err := dec.Decode(rdm.NewMessage(buf))
	if err != nil && !rdm.IsOutOfBounds(err) {
	    return err
	}
	for _, f := range res.ParameterFields() {
	    fmt.Println(f)
	}

Reads never cross the declared message length. When one would, decoding
stops with an error matching ErrOutOfBounds and the fields decoded so far
are returned with it. A checksum mismatch is reported in Result.Checksum and
does not stop decoding.

# Layouts

Parameter layouts are built from FieldSpec values: fixed-width integers,
strings and addresses, Tail strings that take the rest of the parameter,
Repeat groups that consume fixed-size records while a whole record fits,
and When blocks selected by the exact parameter data length.
*/
package rdm
