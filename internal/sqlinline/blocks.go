package sqlinline

const QInsertBlock = `--sql eb60eb49-288f-4244-8bcd-5765397372bc
insert into companion_blocks (companion_id, blocked_auth_id, created_at)
values ($1::uuid, $2::text, now())
on conflict do nothing;
`

const QDeleteBlock = `--sql 64f21a35-59c0-4114-85dd-5326016adb41
delete from companion_blocks
where companion_id = $1::uuid and blocked_auth_id = $2::text;
`

const QListBlocks = `--sql fc5212b9-ae0d-4105-a69c-beaf2dcd3362
select blocked_auth_id
from companion_blocks
where companion_id = $1::uuid
order by created_at desc;
`
