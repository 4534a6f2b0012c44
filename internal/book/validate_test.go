package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Sample(t *testing.T) {
	b := loadSample(t)
	assert.Empty(t, b.Validate())
}

func TestValidate_Violations(t *testing.T) {
	const doc = `<gnc-v2 xmlns:gnc="g" xmlns:act="a" xmlns:trn="t" xmlns:split="s" xmlns:ts="ts">
<gnc:book>
<gnc:account><act:name>A</act:name><act:id>aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa</act:id></gnc:account>
<gnc:transaction><trn:id>11111111111111111111111111111111</trn:id>
<trn:date-posted><ts:date>2024-06-01 00:00:00 +0000</ts:date></trn:date-posted>
<trn:splits>
<trn:split><split:id>21111111111111111111111111111111</split:id><split:value>10/1</split:value><split:account>aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa</split:account></trn:split>
<trn:split><split:id>31111111111111111111111111111111</split:id><split:value>-9/1</split:value><split:account>aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa</split:account></trn:split>
</trn:splits></gnc:transaction>
<gnc:transaction><trn:id>bad-id</trn:id>
<trn:date-posted><ts:date>yesterday</ts:date></trn:date-posted>
<trn:splits>
<trn:split><split:id>41111111111111111111111111111111</split:id><split:value>oops</split:value><split:account>bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb</split:account></trn:split>
</trn:splits></gnc:transaction>
</gnc:book>
</gnc-v2>`

	b, err := New([]byte(doc), GnuCash())
	require.NoError(t, err)

	errs := b.Validate()
	require.Len(t, errs, 5)

	assert.Equal(t, CheckBalance, errs[0].Check)
	assert.Equal(t, "11111111111111111111111111111111", errs[0].Ref)
	assert.Contains(t, errs[0].Description, "sum to 1")

	assert.Equal(t, CheckGUID, errs[1].Check)
	assert.Equal(t, "bad-id", errs[1].Ref)
	assert.Equal(t, CheckDate, errs[2].Check)
	assert.Equal(t, CheckAccount, errs[3].Check)
	assert.Equal(t, "41111111111111111111111111111111", errs[3].Ref)
	assert.Equal(t, CheckValue, errs[4].Check)

	assert.Equal(t, "guid [bad-id]: transaction id \"bad-id\" is not a GUID", errs[1].Error())
}

func TestCheckString(t *testing.T) {
	assert.Equal(t, "balance", CheckBalance.String())
	assert.Equal(t, "check(99)", Check(99).String())
}
